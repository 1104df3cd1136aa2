package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Delimiter string
	Encoding  string
	Strict    bool

	MySQLHost      string
	MySQLPort      int
	MySQLUser      string
	MySQLPassword  string
	MySQLDB        string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration

	LoadChunk       int
	LoadLockTimeout int // seconds, passed to GET_LOCK
}

// Load reads envFile if it exists (optional) and then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		Delimiter:       getenv("CSV_DELIMITER", ","),
		Encoding:        getenv("CSV_ENCODING", ""),
		Strict:          getenvBool("CSV_STRICT", false),
		MySQLHost:       getenv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:       getenvInt("MYSQL_PORT", 3306),
		MySQLUser:       getenv("MYSQL_USER", "root"),
		MySQLPassword:   getenv("MYSQL_PASSWORD", ""),
		MySQLDB:         getenv("MYSQL_DB", "csvreader"),
		ConnectTimeout:  time.Duration(getenvInt("DB_CONNECT_TIMEOUT", 5)) * time.Second,
		QueryTimeout:    time.Duration(getenvInt("DB_QUERY_TIMEOUT", 30)) * time.Second,
		LoadChunk:       getenvInt("LOAD_CHUNK", 2000),
		LoadLockTimeout: getenvInt("LOAD_LOCK_TIMEOUT", 10),
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
