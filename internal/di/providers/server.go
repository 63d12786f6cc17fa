package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/movelogapp/movelog-server/internal/api"
	"github.com/movelogapp/movelog-server/internal/config"
	"github.com/movelogapp/movelog-server/internal/logger"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	videoStorage := do.MustInvoke[*videos.Storage](i)
	signer := do.MustInvoke[*videos.Signer](i)

	instanceService := do.MustInvoke[*service.InstanceService](i)

	// Ensure the instance record exists before serving requests.
	instance, err := instanceService.InitializeInstance(context.Background())
	if err != nil {
		return nil, err
	}
	if instance.IsSetupRequired() {
		log.Warn("Server instance needs setup, no root user configured",
			"instance_id", instance.ID,
		)
	} else {
		log.Info("Server instance ready",
			"instance_id", instance.ID,
			"name", instance.Name,
		)
	}

	services := &api.Services{
		Instance: instanceService,
		Auth:     do.MustInvoke[*service.AuthService](i),
		Session:  do.MustInvoke[*service.SessionService](i),
		Profile:  do.MustInvoke[*service.ProfileService](i),
		Catalog:  do.MustInvoke[*service.CatalogService](i),
		Movement: do.MustInvoke[*service.MovementService](i),
		Tag:      do.MustInvoke[*service.TagService](i),
		Admin:    do.MustInvoke[*service.AdminService](i),
		Invite:   do.MustInvoke[*service.InviteService](i),
	}

	handler := api.NewServer(cfg, storeHandle.Store, services, videoStorage, signer, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
