package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"routinemelt/pkg/logger"

	_ "github.com/lib/pq"
)

func Connect() *sql.DB {
	connStr := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if connStr == "" {
		dbUser := strings.TrimSpace(os.Getenv("user"))
		dbPass := strings.TrimSpace(os.Getenv("password"))
		dbHost := strings.TrimSpace(os.Getenv("host"))
		dbPort := strings.TrimSpace(os.Getenv("port"))
		dbName := strings.TrimSpace(os.Getenv("dbname"))
		connStr = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=require", dbUser, dbPass, dbHost, dbPort, dbName)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open database connection: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	logger.Sugar.Fatal("Could not connect to database after retries.")
	return nil
}

// One row per user per calendar date; tasks is the embedded entry list.
// The unique constraint is what the upsert's ON CONFLICT arbiters against.
const schema = `
CREATE TABLE IF NOT EXISTS day_records (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	tasks JSONB NOT NULL DEFAULT '[]'::jsonb,
	CONSTRAINT day_records_user_date_key UNIQUE (user_id, date)
)`

// Migrate applies the schema. It runs at startup so the handle never depends
// on out-of-band setup.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
