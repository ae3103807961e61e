package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Puppet operations

// GetOrCreatePuppet retrieves an existing puppet or registers a new one.
func (db *DB) GetOrCreatePuppet(name string) (*Puppet, error) {
	puppet, err := db.GetPuppetByName(name)
	if err == nil {
		return puppet, nil
	}

	if err == sql.ErrNoRows {
		return db.CreatePuppet(name, false)
	}

	return nil, err
}

// CreatePuppet registers a puppet in the local registry. foundedByUs marks
// nations this tool created rather than merely managed.
func (db *DB) CreatePuppet(name string, foundedByUs bool) (*Puppet, error) {
	now := time.Now()

	var puppetID int64
	err := db.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO puppets (name, created_at, founded_by_us)
			VALUES (?, ?, ?)
		`, name, now, foundedByUs)

		if err != nil {
			return fmt.Errorf("failed to insert puppet: %w", err)
		}

		puppetID, err = result.LastInsertId()
		return err
	})

	if err != nil {
		return nil, err
	}

	return db.GetPuppetByID(int(puppetID))
}

// GetPuppetByID retrieves a puppet by its ID
func (db *DB) GetPuppetByID(id int) (*Puppet, error) {
	puppet := &Puppet{}
	err := db.conn.QueryRow(`
		SELECT
			id, name, region, wa_member, created_at, founded_by_us,
			last_seen_at, last_action_at, notes
		FROM puppets
		WHERE id = ?
	`, id).Scan(
		&puppet.ID, &puppet.Name, &puppet.Region, &puppet.WAMember,
		&puppet.CreatedAt, &puppet.FoundedByUs,
		&puppet.LastSeenAt, &puppet.LastActionAt, &puppet.Notes,
	)

	if err != nil {
		return nil, err
	}

	return puppet, nil
}

// GetPuppetByName retrieves a puppet by its nation name
func (db *DB) GetPuppetByName(name string) (*Puppet, error) {
	puppet := &Puppet{}
	err := db.conn.QueryRow(`
		SELECT
			id, name, region, wa_member, created_at, founded_by_us,
			last_seen_at, last_action_at, notes
		FROM puppets
		WHERE name = ?
	`, name).Scan(
		&puppet.ID, &puppet.Name, &puppet.Region, &puppet.WAMember,
		&puppet.CreatedAt, &puppet.FoundedByUs,
		&puppet.LastSeenAt, &puppet.LastActionAt, &puppet.Notes,
	)

	if err != nil {
		return nil, err
	}

	return puppet, nil
}

// ListPuppets returns all registered puppets ordered by name.
func (db *DB) ListPuppets() ([]*Puppet, error) {
	rows, err := db.conn.Query(`
		SELECT
			id, name, region, wa_member, created_at, founded_by_us,
			last_seen_at, last_action_at, notes
		FROM puppets
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	puppets := []*Puppet{}
	for rows.Next() {
		puppet := &Puppet{}
		err := rows.Scan(
			&puppet.ID, &puppet.Name, &puppet.Region, &puppet.WAMember,
			&puppet.CreatedAt, &puppet.FoundedByUs,
			&puppet.LastSeenAt, &puppet.LastActionAt, &puppet.Notes,
		)
		if err != nil {
			return nil, err
		}
		puppets = append(puppets, puppet)
	}

	return puppets, rows.Err()
}

// TouchPuppet updates the last-seen timestamp after a successful login.
func (db *DB) TouchPuppet(id int) error {
	_, err := db.conn.Exec(`
		UPDATE puppets SET last_seen_at = ? WHERE id = ?
	`, time.Now(), id)
	return err
}

// UpdatePuppetRegion records the region a puppet was moved to.
func (db *DB) UpdatePuppetRegion(id int, region string) error {
	_, err := db.conn.Exec(`
		UPDATE puppets SET region = ? WHERE id = ?
	`, region, id)
	return err
}
