package batch

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	principalNameColumn = "UserPrincipalName"
	emailColumn         = "Email"
)

var (
	ErrInputNotFound      = errors.New("exo-autoreply: identity list not found")
	ErrInputEmpty         = errors.New("exo-autoreply: identity list holds no identities")
	ErrInputSchemaInvalid = errors.New("exo-autoreply: identity list needs a UserPrincipalName or Email column")
)

// LoadIdentities reads the delimited identity list at path. When a
// UserPrincipalName column exists it is used exclusively, otherwise Email.
// Identities are returned untouched and in file order: no trimming, no
// dedup, no validation.
func LoadIdentities(ctx context.Context, path string) ([]string, error) {
	l := ctxzap.Extract(ctx)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrInputNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "exo-autoreply: opening identity list %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.Wrapf(ErrInputEmpty, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInputSchemaInvalid, "%s: %v", path, err)
	}

	column := columnIndex(header, principalNameColumn)
	if column < 0 {
		column = columnIndex(header, emailColumn)
	}
	if column < 0 {
		return nil, errors.Wrapf(ErrInputSchemaInvalid, "%s: header %q", path, strings.Join(header, ","))
	}

	var identities []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(ErrInputSchemaInvalid, "%s: %v", path, err)
		}

		identity := ""
		if column < len(record) {
			identity = record[column]
		}
		identities = append(identities, identity)
	}
	if len(identities) == 0 {
		return nil, errors.Wrapf(ErrInputEmpty, "%s", path)
	}

	l.Debug("exo-autoreply: identity list loaded",
		zap.String("path", path),
		zap.String("column", header[column]),
		zap.Int("identities", len(identities)))

	return identities, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		// Excel prepends a BOM to the first header cell.
		h = strings.TrimSpace(strings.TrimPrefix(h, "﻿"))
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
