package densecode

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/bodgit/densecode/header"
	"github.com/bodgit/densecode/layout"
	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a SQLite database recording every image written, so a scanned
// image can be matched back to the file it came from.
type Catalog struct {
	db *sql.DB
}

// Entry is one image recorded in a Catalog.
type Entry struct {
	ID   int64
	Name string
	// SHA1 is the hex digest of the image file.
	SHA1 string
	Info Info
}

// OpenCatalog opens or creates the catalogue database in file.
func OpenCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, side INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS payload (image_id INTEGER NOT NULL UNIQUE, crc TEXT NOT NULL, original_size INTEGER NOT NULL, compressed_size INTEGER NOT NULL, flags INTEGER NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id) ON DELETE CASCADE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS payload_crc ON payload (crc)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func formatCRC(crc uint32) string {
	return fmt.Sprintf("%08X", crc)
}

// Record adds an image to the catalogue, or renames it if an image with the
// same digest is already present, and returns its ID.
func (c *Catalog) Record(name, sha1 string, info *Info) (int64, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM image WHERE sha1 = ?", sha1).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO image (sha1, name, width, height, side) VALUES (?, ?, ?, ?, ?)", sha1, name, info.Width, info.Height, info.Side)
		if err != nil {
			return 0, err
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, err
		}
	case nil:
		if _, err := tx.Exec("UPDATE image SET name = ? WHERE id = ?", name, id); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO payload (image_id, crc, original_size, compressed_size, flags) VALUES (?, ?, ?, ?, ?)", id, formatCRC(info.CRC), info.OriginalSize, info.CompressedSize, info.Flags); err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

const selectEntry = "SELECT i.id, i.name, i.sha1, i.width, i.height, i.side, p.crc, p.original_size, p.compressed_size, p.flags FROM image AS i JOIN payload AS p ON p.image_id = i.id"

type scanner interface {
	Scan(...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var crc string
	var flags uint8
	if err := row.Scan(&e.ID, &e.Name, &e.SHA1, &e.Info.Width, &e.Info.Height, &e.Info.Side, &crc, &e.Info.OriginalSize, &e.Info.CompressedSize, &flags); err != nil {
		return nil, err
	}
	v, err := strconv.ParseUint(crc, 16, 32)
	if err != nil {
		return nil, err
	}
	e.Info.CRC = uint32(v)
	e.Info.Flags = header.Flags(flags)
	e.Info.Pitch = float64(e.Info.Width) / float64(e.Info.Side)
	e.Info.DataCells = layout.Capacity(e.Info.Side)
	return &e, nil
}

func (c *Catalog) query(where string, args ...interface{}) ([]Entry, error) {
	rows, err := c.db.Query(selectEntry+where+" ORDER BY i.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// FindBySHA1 returns the entry for the image with the given digest, or nil
// if there isn't one.
func (c *Catalog) FindBySHA1(sha1 string) (*Entry, error) {
	switch e, err := scanEntry(c.db.QueryRow(selectEntry+" WHERE i.sha1 = ?", sha1)); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// FindByCRC returns every entry whose original data has the given
// checksum.
func (c *Catalog) FindByCRC(crc uint32) ([]Entry, error) {
	return c.query(" WHERE p.crc = ?", formatCRC(crc))
}

// List returns every entry in the order they were first recorded.
func (c *Catalog) List() ([]Entry, error) {
	return c.query("")
}
