package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// objectPutter is the slice of config.S3Config the archive needs
type objectPutter interface {
	PutJSON(ctx context.Context, key string, body []byte) error
}

// S3BonusArchive writes each fetched catalog to bonus/<yyyy-mm-dd>.json
type S3BonusArchive struct {
	store objectPutter
}

func NewS3BonusArchive(store objectPutter) *S3BonusArchive {
	return &S3BonusArchive{store: store}
}

type bonusSnapshot struct {
	FetchedAt time.Time    `json:"fetched_at"`
	Items     []BonusOffer `json:"items"`
}

func (a *S3BonusArchive) Store(ctx context.Context, fetchedAt time.Time, offers []BonusOffer) error {
	body, err := json.Marshal(bonusSnapshot{FetchedAt: fetchedAt, Items: offers})
	if err != nil {
		return fmt.Errorf("failed to encode bonus snapshot: %w", err)
	}
	if err := a.store.PutJSON(ctx, archiveKey(fetchedAt), body); err != nil {
		return fmt.Errorf("failed to upload bonus snapshot: %w", err)
	}
	return nil
}

func archiveKey(t time.Time) string {
	return "bonus/" + t.Format("2006-01-02") + ".json"
}
