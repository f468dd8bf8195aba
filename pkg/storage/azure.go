package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
)

// AzureConfig configures the Azure Blob Storage backend.
type AzureConfig struct {
	Container        string
	Prefix           string
	AccountName      string
	AccountKey       string // optional
	ConnectionString string // optional, takes precedence
	// Without a key or connection string, DefaultAzureCredential is used.
}

// Azure stores charts as block blobs.
type Azure struct {
	client *azblob.Client
	cfg    AzureConfig
}

// NewAzure creates an Azure backend.
func NewAzure(cfg AzureConfig) (*Azure, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("azure: container is required")
	}
	if cfg.AccountName == "" && cfg.ConnectionString == "" {
		return nil, fmt.Errorf("azure: account name or connection string is required")
	}

	var client *azblob.Client
	var err error
	opts := &azblob.ClientOptions{ClientOptions: azcore.ClientOptions{
		Telemetry: policy.TelemetryOptions{ApplicationID: "nwcharts"},
		Retry:     policy.RetryOptions{MaxRetries: 3},
	}}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, opts)
	case cfg.AccountKey != "":
		cred, cerr := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
		if cerr != nil {
			return nil, fmt.Errorf("azure: shared key: %w", cerr)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, opts)
	default:
		cred, cerr := azidentity.NewDefaultAzureCredential(nil)
		if cerr != nil {
			return nil, fmt.Errorf("azure: default credential: %w", cerr)
		}
		client, err = azblob.NewClient(serviceURL, cred, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("azure: create client: %w", err)
	}
	return &Azure{client: client, cfg: cfg}, nil
}

// Save uploads a block blob and returns its URL.
func (a *Azure) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	name := path.Join(a.cfg.Prefix, obj.Name)

	headers := &blob.HTTPHeaders{BlobContentType: &obj.ContentType}
	if v := obj.Option(OptCacheControl); v != "" {
		headers.BlobCacheControl = &v
	}
	if v := obj.Option(OptContentDisposition); v != "" {
		headers.BlobContentDisposition = &v
	}
	upload := &blockblob.UploadStreamOptions{HTTPHeaders: headers}
	if md := obj.Metadata(); md != nil {
		upload.Metadata = make(map[string]*string, len(md))
		for k, v := range md {
			val := v
			upload.Metadata[k] = &val
		}
	}

	bc := a.client.ServiceClient().NewContainerClient(a.cfg.Container).NewBlockBlobClient(name)
	if _, err := bc.UploadStream(ctx, bytes.NewReader(data), upload); err != nil {
		return "", storageErr(err, "upload", name)
	}
	return bc.URL(), nil
}
