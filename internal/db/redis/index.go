package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/krishisathi/sathi/internal/db"
)

// CreateVectorIndex creates an FT index over hash keys with one HNSW vector
// field and optional plain text fields.
func (s *Store) CreateVectorIndex(ctx context.Context, def *db.VectorIndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func buildCreateArgs(def *db.VectorIndexDefinition) ([]string, error) {
	if def.Name == "" {
		return nil, errors.New("index name is required")
	}
	if def.VectorField == "" {
		return nil, errors.New("vector field name is required")
	}
	if def.Dimensions <= 0 {
		return nil, errors.New("vector DIM must be positive")
	}

	args := []string{def.Name, "ON", "HASH"}

	if def.Prefix != "" {
		args = append(args, "PREFIX", "1", def.Prefix)
	}

	args = append(args, "SCHEMA")

	for _, f := range def.TextFields {
		args = append(args, f, "TEXT")
	}

	vectorAttrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.Dimensions),
		"DISTANCE_METRIC", "COSINE",
	}
	if def.HNSWM > 0 {
		vectorAttrs = append(vectorAttrs, "M", strconv.Itoa(def.HNSWM))
	}
	if def.HNSWEFConstruct > 0 {
		vectorAttrs = append(vectorAttrs, "EF_CONSTRUCTION", strconv.Itoa(def.HNSWEFConstruct))
	}

	args = append(args, def.VectorField, "VECTOR", "HNSW", strconv.Itoa(len(vectorAttrs)))
	args = append(args, vectorAttrs...)

	return args, nil
}
