// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/gzip"
	_ "github.com/mattn/go-sqlite3"
)

// Printer is a utility class to output data from the system
//
//go:generate mockgen -source print.go -destination print_mock.go -package utils
type Printer interface {
	Print() error
	Close() error
}

type Printers struct {
	printers []Printer
}

// Print runs all printers, also after one of them failed, and returns the
// joined errors.
func (ps *Printers) Print() error {
	var err error
	for _, p := range ps.printers {
		err = errors.Join(err, p.Print())
	}
	return err
}

func (ps *Printers) Close() error {
	var err error
	for _, p := range ps.printers {
		err = errors.Join(err, p.Close())
	}
	return err
}

// Len returns the number of registered printers.
func (ps *Printers) Len() int {
	return len(ps.printers)
}

func NewPrinters() *Printers {
	return &Printers{[]Printer{}}
}

func (ps *Printers) AddPrinter(p Printer) *Printers {
	ps.printers = append(ps.printers, p)
	return ps
}

// PrinterToWriter writes to any io.Writer
// Wrap f, returns a string to be printed
type PrinterToWriter struct {
	w io.Writer
	f func() string
}

func (p *PrinterToWriter) Print() error {
	_, err := fmt.Fprintln(p.w, p.f())
	return err
}

func (p *PrinterToWriter) Close() error {
	return nil
}

func NewPrinterToWriter(w io.Writer, f func() string) *PrinterToWriter {
	return &PrinterToWriter{w, f}
}

func (ps *Printers) AddPrinterToWriter(w io.Writer, f func() string) *Printers {
	return ps.AddPrinter(NewPrinterToWriter(w, f))
}

// PrinterToFile appends to a File, creating it and its directory if needed
// Wrap f, returns a string to be printed
type PrinterToFile struct {
	filepath string
	f        func() string
}

func (p *PrinterToFile) Print() (err error) {
	if err = os.MkdirAll(filepath.Dir(p.filepath), 0755); err != nil {
		return fmt.Errorf("unable to create directory of %s; %v", p.filepath, err)
	}
	file, err := os.OpenFile(p.filepath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to print to file %s; %v", p.filepath, err)
	}

	defer func(file *os.File) {
		e := file.Close()
		if e != nil {
			err = errors.Join(err, e)
		}
	}(file)
	_, err = file.WriteString(p.f())
	return err
}

func (p *PrinterToFile) Close() error {
	return nil
}

func NewPrinterToFile(filepath string, f func() string) *PrinterToFile {
	return &PrinterToFile{filepath, f}
}

func (ps *Printers) AddPrinterToFile(filepath string, f func() string) *Printers {
	if filepath != "" {
		ps.AddPrinter(NewPrinterToFile(filepath, f))
	}
	return ps
}

// PrinterToGzip replaces a gzip compressed file on every print
// Wrap f, returns the uncompressed content
type PrinterToGzip struct {
	filepath string
	f        func() string
}

func (p *PrinterToGzip) Print() error {
	return WriteFileAtomic(p.filepath, func(w io.Writer) error {
		zw := gzip.NewWriter(w)
		if _, err := io.WriteString(zw, p.f()); err != nil {
			return errors.Join(err, zw.Close())
		}
		return zw.Close()
	})
}

func (p *PrinterToGzip) Close() error {
	return nil
}

func NewPrinterToGzip(filepath string, f func() string) *PrinterToGzip {
	return &PrinterToGzip{filepath, f}
}

func (ps *Printers) AddPrinterToGzip(filepath string, f func() string) *Printers {
	if filepath != "" {
		ps.AddPrinter(NewPrinterToGzip(filepath, f))
	}
	return ps
}

// PrinterToDb writes by inserting rows into DB
// Wrap f, returns an array of values to be inserted
type PrinterToDb struct {
	db     *sqlx.DB
	insert string
	f      func() [][]any
}

func (p *PrinterToDb) Print() (err error) {
	// Transaction is used to improve efficiency over bulk insert
	tx, err := p.db.Beginx()
	if err != nil {
		return fmt.Errorf("unable to begin a transaction; %v", err)
	}

	stmt, err := tx.Preparex(p.insert)
	if err != nil {
		return errors.Join(fmt.Errorf("unable to prepare statement %s; %v", p.insert, err), tx.Rollback())
	}
	defer func(stmt *sqlx.Stmt) {
		e := stmt.Close()
		if e != nil {
			err = errors.Join(err, e)
		}
	}(stmt)

	for _, value := range p.f() {
		if _, err = stmt.Exec(value...); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

func (p *PrinterToDb) Close() error {
	return p.db.Close()
}

func NewPrinterToDb(db *sqlx.DB, insert string, f func() [][]any) *PrinterToDb {
	return &PrinterToDb{db, insert, f}
}

func NewPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*PrinterToDb, error) {
	db, err := sqlx.Open("sqlite3", conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection to sqlite3 %s; %v", conn, err)
	}

	if _, err = db.Exec(create); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create table on %s; %v", conn, err), db.Close())
	}
	// records of concurrent iterations are appended by separate processes
	if _, err = db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return &PrinterToDb{db, insert, f}, nil
}

func (ps *Printers) AddPrinterToSqlite3(conn string, create string, insert string, f func() [][]any) (*Printers, error) {
	if conn == "" {
		return ps, nil
	}
	p, err := NewPrinterToSqlite3(conn, create, insert, f)
	if err != nil {
		return ps, err
	}
	return ps.AddPrinter(p), nil
}
