package collector

import (
	"context"
	"encoding/json"
	"os"

	"github.com/Gthulhu/smoothtask/domain"
	pkgerrors "github.com/pkg/errors"
)

// FileSource replays a snapshot stored as JSON. Used for offline planning.
type FileSource struct {
	Path string
}

func (s FileSource) Collect(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "read snapshot %s", s.Path)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, pkgerrors.Wrapf(err, "decode snapshot %s", s.Path)
	}
	return &snapshot, nil
}
