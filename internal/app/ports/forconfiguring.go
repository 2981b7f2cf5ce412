package ports

import (
	"context"

	"github.com/sa6mwa/consink/internal/app/model"
)

type ForConfiguring interface {
	Load(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, cfg *model.Config) error
}
