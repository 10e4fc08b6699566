package repository

import "github.com/Masterminds/squirrel"

// psql is the shared statement builder using Postgres dollar placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
