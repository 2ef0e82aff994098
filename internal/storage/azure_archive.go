package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Archiver copies persisted artifacts to durable off-host storage. Archival
// is best-effort: callers log failures but never fail a request over them.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) error
}

// NoopArchiver is used when no archive backend is configured
type NoopArchiver struct{}

func (NoopArchiver) Archive(ctx context.Context, name string, data []byte) error {
	return nil
}

type azureArchiver struct {
	client    *azblob.Client
	container string
}

// NewAzureArchiver creates an archiver backed by an Azure blob container
func NewAzureArchiver(accountName, accountKey, container string) (Archiver, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("archive credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("archive client: %w", err)
	}

	return &azureArchiver{client: client, container: container}, nil
}

func (a *azureArchiver) Archive(ctx context.Context, name string, data []byte) error {
	if _, err := a.client.UploadBuffer(ctx, a.container, name, data, nil); err != nil {
		return fmt.Errorf("archive upload %s: %w", name, err)
	}
	return nil
}
