package main

import (
	"context"
	"fmt"
	"io"

	fbapp "firebase.google.com/go/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"reuseu/internal/adapter/repository"
	domainrepo "reuseu/internal/domain/repository"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/firebase"
	"reuseu/internal/infrastructure/storage"
	"reuseu/internal/infrastructure/treestore"
	"reuseu/pkg/config"
)

// platform lazily creates the Google clients; only the configured backends
// ever touch them.
type platform struct {
	cfg     *config.Config
	log     *zap.Logger
	opts    []option.ClientOption
	app     *fbapp.App
	closers []io.Closer
}

func (p *platform) firebaseApp(ctx context.Context) (*fbapp.App, error) {
	if p.app != nil {
		return p.app, nil
	}
	opts, err := firebase.ClientOptions(p.cfg)
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, p.cfg, opts...)
	if err != nil {
		return nil, err
	}
	p.opts, p.app = opts, app
	return app, nil
}

func (p *platform) Close() error {
	var errs error
	for i := len(p.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, p.closers[i].Close())
	}
	return errs
}

func (p *platform) treeStore(ctx context.Context) (treestore.Store, error) {
	switch p.cfg.StoreBackend {
	case "memory":
		p.log.Warn("using in-memory tree store; data is lost on restart")
		return treestore.NewMemoryStore(), nil
	case "rtdb":
		app, err := p.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("connecting to realtime database: %w", err)
		}
		return treestore.NewRealtimeStore(client), nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", p.cfg.StoreBackend)
	}
}

// blobStores returns the listing image store and the profile picture store.
func (p *platform) blobStores(ctx context.Context) (service.BlobStore, service.BlobStore, error) {
	switch p.cfg.BlobBackend {
	case "memory":
		p.log.Warn("using in-memory blob store")
		mem := storage.NewMemoryBlobStore()
		return mem, mem, nil
	case "gcs":
		if _, err := p.firebaseApp(ctx); err != nil {
			return nil, nil, err
		}
		listings, err := storage.NewCloudStorageClient(ctx, p.cfg.StorageBucket, p.opts...)
		if err != nil {
			return nil, nil, err
		}
		p.closers = append(p.closers, listings)
		pfp, err := storage.NewCloudStorageClient(ctx, p.cfg.PfpBucket, p.opts...)
		if err != nil {
			return nil, nil, err
		}
		p.closers = append(p.closers, pfp)
		return listings, pfp, nil
	case "s3":
		o := storage.S3Options{
			Endpoint:  p.cfg.S3Endpoint,
			Region:    p.cfg.S3Region,
			AccessKey: p.cfg.S3AccessKey,
			SecretKey: p.cfg.S3SecretKey,
		}
		listings, err := storage.NewS3Client(ctx, p.cfg.StorageBucket, o)
		if err != nil {
			return nil, nil, err
		}
		pfp, err := storage.NewS3Client(ctx, p.cfg.PfpBucket, o)
		if err != nil {
			return nil, nil, err
		}
		return listings, pfp, nil
	default:
		return nil, nil, fmt.Errorf("unknown BLOB_BACKEND %q", p.cfg.BlobBackend)
	}
}

func (p *platform) auditRepository(ctx context.Context, store treestore.Store) (domainrepo.AuditRepository, error) {
	switch p.cfg.AuditBackend {
	case "none":
		return nil, nil
	case "tree":
		return repository.NewTreeAuditRepository(store), nil
	case "firestore":
		app, err := p.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		p.closers = append(p.closers, client)
		return repository.NewFirestoreAuditRepository(client), nil
	default:
		return nil, fmt.Errorf("unknown AUDIT_BACKEND %q", p.cfg.AuditBackend)
	}
}

func (p *platform) tokenProvider(ctx context.Context) (service.TokenProvider, error) {
	switch p.cfg.AuthVerifier {
	case "jwks":
		if p.cfg.FirebaseProject == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for the jwks verifier")
		}
		return firebase.NewJWKSTokenProvider(ctx, p.cfg.FirebaseProject)
	case "firebase":
		app, err := p.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("connecting to firebase auth: %w", err)
		}
		return firebase.NewAdminTokenProvider(client), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_VERIFIER %q", p.cfg.AuthVerifier)
	}
}
