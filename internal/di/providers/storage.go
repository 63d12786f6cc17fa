package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/logger"
	"github.com/movelogapp/movelog-server/internal/media/videos"
)

// ProvideVideoStorage provides the video object storage.
func ProvideVideoStorage(i do.Injector) (*videos.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := videos.NewStorage(cfg.Media.BasePath, cfg.Media.MaxVideoSize)
	if err != nil {
		return nil, fmt.Errorf("video storage: %w", err)
	}

	log.Info("Video storage ready",
		"path", cfg.Media.BasePath,
		"max_video_size", cfg.Media.MaxVideoSize,
	)

	return storage, nil
}

// ProvideVideoSigner provides the signed playback URL signer.
func ProvideVideoSigner(i do.Injector) (*videos.Signer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return videos.NewSigner([]byte(authKey), cfg.Media.PlaybackURLTTL)
}
