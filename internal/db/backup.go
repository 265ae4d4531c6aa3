// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"
)

// BackupFormat identifies the header line of an export stream.
const BackupFormat = "uidcolumn-resources/1"

type backupHeader struct {
	Format string `json:"format"`
	Count  int    `json:"count"`
}

// ErrBadBackup is returned by Import for streams it does not understand.
var ErrBadBackup = errors.New("not a resources backup")

// Export writes every resource to w as zstd-compressed JSON lines, preceded
// by a header line. It returns the number of resources written.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	resources, err := s.ListResources(ctx)
	if err != nil {
		return 0, err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	if err := enc.Encode(backupHeader{Format: BackupFormat, Count: len(resources)}); err != nil {
		_ = zw.Close()
		return 0, err
	}
	for i := range resources {
		if err := enc.Encode(&resources[i]); err != nil {
			_ = zw.Close()
			return i, err
		}
	}
	if err := zw.Close(); err != nil {
		return len(resources), fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	dbLogf("db: exported %d resources", len(resources))
	return len(resources), nil
}

// Import reads a stream written by Export and inserts its resources in a
// single transaction. Resources whose id already exists are skipped. It
// returns the number of rows inserted.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadBackup, err)
		}
		return 0, ErrBadBackup
	}
	var hdr backupHeader
	if err := json.Unmarshal(sc.Bytes(), &hdr); err != nil || hdr.Format != BackupFormat {
		return 0, ErrBadBackup
	}

	var resources []Resource
	for sc.Scan() {
		var res Resource
		if err := json.Unmarshal(sc.Bytes(), &res); err != nil {
			return 0, fmt.Errorf("line %d: %w", len(resources)+2, err)
		}
		resources = append(resources, res)
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if len(resources) != hdr.Count {
		return 0, fmt.Errorf("%w: header announces %d resources, found %d", ErrBadBackup, hdr.Count, len(resources))
	}

	inserted := 0
	err = s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range resources {
			res, err := tx.NewInsert().Model(&resources[i]).Ignore().Exec(ctx)
			if err != nil {
				return MapDBError(err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	dbLogf("db: imported %d of %d resources", inserted, len(resources))
	return inserted, nil
}
