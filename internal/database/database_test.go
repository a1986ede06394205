package database

import (
	"testing"

	"github.com/host-booking/service-booking/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "booking", Password: "secret", DBName: "booking", SSLMode: "disable",
	}

	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=booking sslmode=disable", DSN(cfg))
}

func TestDatabaseURL_EscapesCredentials(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "booking", Password: "p@ss/word", DBName: "booking", SSLMode: "require",
	}

	assert.Equal(t, "postgres://booking:p%40ss%2Fword@db:5432/booking?sslmode=require", DatabaseURL(cfg))
}
