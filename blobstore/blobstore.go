// Package blobstore wraps Cloudinary for post image storage. Deletion
// distinguishes "object already gone" from real failures so callers can
// treat missing blobs as cleanup already done.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ErrNotFound reports that the object backing a URL no longer exists.
var ErrNotFound = errors.New("blobstore: object not found")

const postFolder = "varsharaksha/posts"

type Client struct {
	cld *cloudinary.Cloudinary
}

// New reads CLOUDINARY_URL from the environment.
func New() (*Client, error) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return nil, err
	}
	return &Client{cld: cld}, nil
}

// UploadImage stores one post image and returns its public URL. The name is
// a fresh UUID so concurrent uploads never collide.
func (c *Client) UploadImage(ctx context.Context, file io.Reader) (string, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         postFolder,
		PublicID:       uuid.NewString(),
		Transformation: "c_limit,w_1200,h_1200,q_auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// DeleteImage removes the object behind a delivery URL. Returns ErrNotFound
// when the object is already absent.
func (c *Client) DeleteImage(ctx context.Context, url string) error {
	publicID, err := PublicIDFromURL(url)
	if err != nil {
		return err
	}

	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	switch result.Result {
	case "ok":
		return nil
	case "not found":
		return ErrNotFound
	default:
		return fmt.Errorf("blobstore: destroy %s: %s", publicID, result.Result)
	}
}

// PublicIDFromURL recovers the public ID from a Cloudinary delivery URL:
// everything after the /upload/ segment, minus the version prefix and the
// file extension.
func PublicIDFromURL(url string) (string, error) {
	_, after, found := strings.Cut(url, "/upload/")
	if !found || after == "" {
		return "", fmt.Errorf("blobstore: not a delivery URL: %s", url)
	}

	parts := strings.Split(after, "/")
	// Drop transformation and version segments ahead of the folder path.
	for len(parts) > 1 && (strings.HasPrefix(parts[0], "v") && isDigits(parts[0][1:]) || strings.Contains(parts[0], ",")) {
		parts = parts[1:]
	}

	id := strings.Join(parts, "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	if id == "" {
		return "", fmt.Errorf("blobstore: not a delivery URL: %s", url)
	}
	return id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
