/*
 * store.go, part of gohitran.
 *
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package specdb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rmera/gohitran"
	"github.com/rmera/gohitran/lineshape"
	"github.com/rmera/gohitran/synth"
	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3"
)

//timeFormat sorts as text in chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created TEXT NOT NULL,
	note TEXT,
	temperature DOUBLE NOT NULL,
	pressure DOUBLE NOT NULL,
	path_length DOUBLE NOT NULL,
	omega_wing DOUBLE,
	profile TEXT,
	beta DOUBLE,
	grid_start DOUBLE,
	grid_end DOUBLE,
	resolution DOUBLE,
	points INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS components (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	molecule INTEGER,
	isotope INTEGER,
	concentration DOUBLE NOT NULL,
	lines INTEGER,
	blobCoef BLOB,
	PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS spectra (
	run_id TEXT PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
	blobWavenumber BLOB,
	blobCoef BLOB,
	blobOD BLOB,
	blobAb BLOB,
	blobTr BLOB
);
`

//RunInfo describes a saved synthesis.
type RunInfo struct {
	ID         string
	Created    time.Time
	Note       string
	T          float64 //K
	P          float64 //atm
	PathLength float64 //cm
	OmegaWing  float64
	Profile    string
	Beta       float64
	Start, End float64 //cm-1
	Resolution float64
	Points     int
	Molecules  []string
}

//Store is an archive of synthesized spectra in an SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

//Open opens, or creates, the archive at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

//Close closes the database.
func (S *Store) Close() error {
	if err := S.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

//Path returns the file of the archive.
func (S *Store) Path() string { return S.path }

//SaveRun stores r, and returns the id assigned to it.
func (S *Store) SaveRun(ctx context.Context, r *synth.Result, note string) (string, error) {
	if r == nil {
		return "", hitran.Errorf(hitran.ErrInvalidParameter, "nil result")
	}
	id := uuid.NewString()
	var start, end float64
	if r.Len() > 0 {
		start, end = r.Wavenumbers[0], r.Wavenumbers[r.Len()-1]
	}
	tx, err := S.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	c, o := r.Conditions, r.Options
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created, note, temperature, pressure, path_length, omega_wing, profile, beta, grid_start, grid_end, resolution, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeFormat), note, c.T, c.P, c.PathLength, o.OmegaWing, o.Profile.String(), o.Beta, start, end, r.Resolution, r.Len())
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO components (run_id, position, name, molecule, isotope, concentration, lines, blobCoef)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare component statement: %w", err)
	}
	defer stmt.Close()
	for i, name := range r.Names {
		var mol, iso, lines interface{}
		if i < len(r.Isotopologues) {
			mol, iso = r.Isotopologues[i].Molecule, r.Isotopologues[i].Isotope
		}
		if i < len(r.LineCounts) {
			lines = r.LineCounts[i]
		}
		_, err = stmt.ExecContext(ctx, id, i, name, mol, iso, r.Concentrations[i], lines, encodeFloat64(r.Coefficients[i]))
		if err != nil {
			return "", fmt.Errorf("failed to insert component %s: %w", name, err)
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO spectra (run_id, blobWavenumber, blobCoef, blobOD, blobAb, blobTr)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, encodeFloat64(r.Wavenumbers), encodeFloat64(r.Total), encodeFloat64(r.OD), encodeFloat64(r.Ab), encodeFloat64(r.Tr))
	if err != nil {
		return "", fmt.Errorf("failed to insert spectrum: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	log.Info().Str("id", id).Str("database", S.path).Int("points", r.Len()).Strs("molecules", r.Names).Msg("run saved")
	return id, nil
}

const runColumns = `id, created, note, temperature, pressure, path_length, omega_wing, profile, beta, grid_start, grid_end, resolution, points`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (RunInfo, error) {
	var R RunInfo
	var created string
	var note, profile sql.NullString
	var omega, beta, start, end, res sql.NullFloat64
	err := row.Scan(&R.ID, &created, &note, &R.T, &R.P, &R.PathLength, &omega, &profile, &beta, &start, &end, &res, &R.Points)
	if err != nil {
		return R, err
	}
	R.Created, err = time.Parse(timeFormat, created)
	if err != nil {
		return R, hitran.Errorf(hitran.ErrDataError, "run %s: invalid creation time %q", R.ID, created)
	}
	R.Note, R.Profile = note.String, profile.String
	R.OmegaWing, R.Beta = omega.Float64, beta.Float64
	R.Start, R.End, R.Resolution = start.Float64, end.Float64, res.Float64
	return R, nil
}

//ListRuns returns the saved runs, newest first.
func (S *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := S.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()
	var ret []RunInfo
	index := make(map[string]int)
	for rows.Next() {
		R, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		index[R.ID] = len(ret)
		ret = append(ret, R)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	crows, err := S.db.QueryContext(ctx, `SELECT run_id, name FROM components ORDER BY run_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var id, name string
		if err := crows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to read component: %w", err)
		}
		if i, ok := index[id]; ok {
			ret[i].Molecules = append(ret[i].Molecules, name)
		}
	}
	return ret, crows.Err()
}

//LoadRun reads back the run with the given id. The per-molecule optical depths
//are recomputed from the stored coefficients.
func (S *Store) LoadRun(ctx context.Context, id string) (*synth.Result, RunInfo, error) {
	info, err := scanRun(S.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, info, hitran.Errorf(hitran.ErrInvalidParameter, "no run %s in %s", id, S.path)
	}
	if err != nil {
		return nil, info, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	profile, err := lineshape.ParseProfile(info.Profile)
	if err != nil {
		return nil, info, hitran.ErrDecorate(err, "LoadRun")
	}
	R := &synth.Result{
		Conditions: synth.Conditions{T: info.T, P: info.P, PathLength: info.PathLength},
		Options:    synth.Options{OmegaWing: info.OmegaWing, Profile: profile, Beta: info.Beta, Resolution: info.Resolution},
		Resolution: info.Resolution,
	}
	rows, err := S.db.QueryContext(ctx, `SELECT name, molecule, isotope, concentration, lines, blobCoef FROM components WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, info, fmt.Errorf("failed to read components of %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var mol, iso, lines sql.NullInt64
		var c float64
		var blob []byte
		if err := rows.Scan(&name, &mol, &iso, &c, &lines, &blob); err != nil {
			return nil, info, fmt.Errorf("failed to read component: %w", err)
		}
		coef, err := decodeFloat64(blob, info.Points)
		if err != nil {
			return nil, info, hitran.ErrDecorate(err, "LoadRun: "+name)
		}
		iinfo, err := hitran.LookupIsotopologue(int(mol.Int64), int(iso.Int64))
		if err != nil {
			iinfo = hitran.IsotopologueInfo{Molecule: int(mol.Int64), Isotope: int(iso.Int64)}
		}
		R.Names = append(R.Names, name)
		R.Concentrations = append(R.Concentrations, c)
		R.Isotopologues = append(R.Isotopologues, iinfo)
		R.LineCounts = append(R.LineCounts, int(lines.Int64))
		R.Coefficients = append(R.Coefficients, coef)
	}
	if err := rows.Err(); err != nil {
		return nil, info, fmt.Errorf("failed to read components of %s: %w", id, err)
	}
	info.Molecules = R.Names
	blobs := make([][]byte, 5)
	err = S.db.QueryRowContext(ctx, `SELECT blobWavenumber, blobCoef, blobOD, blobAb, blobTr FROM spectra WHERE run_id = ?`, id).
		Scan(&blobs[0], &blobs[1], &blobs[2], &blobs[3], &blobs[4])
	if err != nil {
		return nil, info, fmt.Errorf("failed to read spectrum of %s: %w", id, err)
	}
	targets := []*[]float64{&R.Wavenumbers, &R.Total, &R.OD, &R.Ab, &R.Tr}
	for i, b := range blobs {
		if *targets[i], err = decodeFloat64(b, info.Points); err != nil {
			return nil, info, hitran.ErrDecorate(err, "LoadRun")
		}
	}
	R.MoleculeOD = make([][]float64, len(R.Coefficients))
	factor := hitran.NumberDensity(info.T, info.P) * info.PathLength
	for i, v := range R.Coefficients {
		R.MoleculeOD[i] = make([]float64, len(v))
		for j, c := range v {
			R.MoleculeOD[i][j] = c * factor
		}
	}
	return R, info, nil
}

//DeleteRun removes a run. It is not an error if the run does not exist.
func (S *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := S.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM spectra WHERE run_id = ?`,
		`DELETE FROM components WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("failed to delete run %s: %w", id, err)
		}
	}
	return tx.Commit()
}

//encodeFloat64 encodes values as a little-endian float64 blob.
func encodeFloat64(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

//decodeFloat64 decodes a blob written by encodeFloat64, which must hold n values.
func decodeFloat64(blob []byte, n int) ([]float64, error) {
	if len(blob) != 8*n {
		return nil, hitran.Errorf(hitran.ErrDataError, "blob of %d bytes, %d values expected", len(blob), n)
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return ret, nil
}
