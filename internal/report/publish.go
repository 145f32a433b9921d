package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"genepri/internal/blob"
	"genepri/internal/rank"
	"genepri/pkg/phenotype"
)

const (
	prioritizationName = "prioritization"
	networksName       = "networks"
)

// NewRunID returns a fresh identifier for a published run.
func NewRunID() string { return uuid.NewString() }

// Run is what gets published for one prioritization.
type Run struct {
	ID       string
	Ranking  []rank.RankedGene
	Networks *phenotype.NetworkCollection
}

// Publisher writes runs to a blob store under
// <prefix>/<run id>/{prioritization,networks}.<ext>.
type Publisher struct {
	Store  blob.Store
	Prefix string
	Format Format
	Logger *zap.Logger
}

// Keys returns the object keys a run with id is published under.
func (p Publisher) Keys(id string) (prioritization, networks string) {
	dir := path.Join(p.Prefix, id)
	ext := "." + p.Format.Ext()
	return path.Join(dir, prioritizationName+ext), path.Join(dir, networksName+ext)
}

// Publish encodes and stores run. A run id that was already published fails
// with blob.ErrExists and leaves the stored objects untouched.
func (p Publisher) Publish(ctx context.Context, run Run) ([]blob.Info, error) {
	if p.Store == nil {
		return nil, errors.New("publish: no store")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if _, err := ParseFormat(string(p.Format)); err != nil {
		return nil, err
	}
	networks := run.Networks
	if networks == nil {
		networks = phenotype.NewNetworkCollection()
	}
	prioritizationKey, networksKey := p.Keys(run.ID)
	objects := []struct {
		key   string
		write func(*bytes.Buffer) error
	}{
		{prioritizationKey, func(b *bytes.Buffer) error { return WritePrioritization(b, p.Format, run.Ranking) }},
		{networksKey, func(b *bytes.Buffer) error { return WriteNetworks(b, p.Format, networks) }},
	}

	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := blob.PutOptions{
		ContentType: p.Format.ContentType(),
		Metadata:    map[string]string{"run": run.ID, "format": string(p.Format)},
	}
	out := make([]blob.Info, 0, len(objects))
	for _, obj := range objects {
		var buf bytes.Buffer
		if err := obj.write(&buf); err != nil {
			return out, fmt.Errorf("encode %s: %w", obj.key, err)
		}
		info, err := p.Store.Put(ctx, obj.key, &buf, opts)
		if err != nil {
			return out, fmt.Errorf("publish %s: %w", obj.key, err)
		}
		logger.Debug("report published",
			zap.String("key", info.Key),
			zap.Int64("bytes", info.Size),
			zap.String("driver", string(p.Store.Driver())))
		out = append(out, info)
	}
	return out, nil
}
