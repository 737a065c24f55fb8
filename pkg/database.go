package pact

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	_ "modernc.org/sqlite"
)

// ConnectToDatabase opens the channel map store. driver is "mysql" or
// "sqlite"; for sqlite dbname is the database file.
func ConnectToDatabase(driver string, user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	switch driver {
	case "mysql":
		port := "3306"
		dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
		return sqlx.Connect("mysql", dbURI)
	case "sqlite":
		db, err := sqlx.Connect("sqlite", dbname)
		if err != nil {
			return nil, err
		}
		// every connection to ":memory:" would be a different database
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// OpenDatabase connects to the store named in the options. It returns a nil
// handle when no_db is set, and the built-in channel map is used instead.
func OpenDatabase(config Configuration) (*sqlx.DB, error) {
	if config.NoDB {
		return nil, nil
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Connecting to %s database %s at %s", config.DBDriver, config.DBName, config.Host), "database")
	}
	return ConnectToDatabase(config.DBDriver, config.User, config.Passwd, config.Host, config.DBName)
}

type ChannelMappingEntry struct {
	Board      int `db:"Board"`
	DaqChannel int `db:"DaqChannel"`
	Firing     int `db:"Firing"`
	Element    int `db:"Element"`
}

// LoadChannelMap builds the channel map valid for dataset index from the
// ChannelMapping table. Every (board, channel, firing) triple must be present.
func LoadChannelMap(db *sqlx.DB, index int, p DemuxParams) (ChannelMap, error) {
	query := "SELECT Board, DaqChannel, Firing, Element FROM ChannelMapping WHERE MinIndex <= ? AND MaxIndex >= ?"
	if configuration.Verbosity > 0 {
		logger.Info("Channel mapping read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s (index %d)", query, index)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query, index, index)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	chanMap := make(ChannelMap, p.ChannelMapSize())
	seen := make([]bool, p.ChannelMapSize())
	found := 0
	for rows.Next() {
		result := ChannelMappingEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		if result.Board < 0 || result.Board >= NumBoards ||
			result.DaqChannel < 0 || result.DaqChannel >= p.NumDaqChnsBoard ||
			result.Firing < 0 || result.Firing >= p.TotFirings {
			return nil, fmt.Errorf("channel mapping row %+v outside board layout: %w", result, ErrInvalidIndexTable)
		}
		position := chanMap.Position(result.Board, result.DaqChannel, result.Firing, p)
		if !seen[position] {
			seen[position] = true
			found++
		}
		chanMap[position] = result.Element
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading DB rows: %w", err)
	}
	if found != p.ChannelMapSize() {
		return nil, &SizeError{Name: fmt.Sprintf("channel mapping rows for index %d", index), Want: p.ChannelMapSize(), Got: found}
	}
	if err := chanMap.Validate(p); err != nil {
		return nil, err
	}
	return chanMap, nil
}

// LoadBadChannels returns the 1-based elements flagged with inverted
// polarity for dataset index.
func LoadBadChannels(db *sqlx.DB, index int) ([]int, error) {
	query := "SELECT Element FROM BadChannels WHERE MinIndex <= ? AND MaxIndex >= ? ORDER BY Element"
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s (index %d)", query, index)
		logger.Info(message, "database")
	}

	badChannels := make([]int, 0)
	if err := db.Select(&badChannels, query, index, index); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	return badChannels, nil
}
