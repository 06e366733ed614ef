package postgres

import "github.com/Masterminds/squirrel"

// Builder is the statement builder shared by all repositories.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
