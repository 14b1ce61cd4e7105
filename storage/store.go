package storage

import (
	"context"
	"fmt"

	"foodgram/config"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
)

const storeKey = "images"

// New builds the ImageStore selected by conf.Storage.Driver.
func New(ctx context.Context, conf config.Configuration) (ImageStore, error) {
	switch conf.Storage.Driver {
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: gcs client: %w", err)
		}
		return NewGCSStore(client, conf.Storage.Bucket), nil
	case "local", "":
		return NewLocalStore(conf.Storage.MediaRoot, conf.Storage.MediaURL), nil
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", conf.Storage.Driver)
	}
}

// SetToContext makes store available to handlers through FromContext.
func SetToContext(store ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(storeKey, store)
		c.Next()
	}
}

// FromContext returns the store set by SetToContext, or nil.
func FromContext(c *gin.Context) ImageStore {
	v, ok := c.Get(storeKey)
	if !ok {
		return nil
	}
	s, _ := v.(ImageStore)
	return s
}
