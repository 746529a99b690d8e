package main

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./seed-db"`
	ResultDir      string `env:"RESULT_DIR,default=./result"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`

	UsersNumber    int `env:"USERS_NUMBER"`
	GroupsNumber   int `env:"GROUPS_NUMBER"`
	MessagesNumber int `env:"MESSAGES_NUMBER"`

	// MaxAttempts caps each convergence loop; 0 keeps them unbounded.
	MaxAttempts int `env:"MAX_ATTEMPTS"`
}
