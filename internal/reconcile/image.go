package reconcile

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/osctl-io/osctl/internal/checksum"
	"github.com/osctl-io/osctl/internal/cloud"
	"github.com/osctl-io/osctl/internal/source"
)

// ImageSpec describes the desired state of a disk image.
type ImageSpec struct {
	// ID is the image ID. Optional; takes precedence over Name as the
	// identity key.
	ID string
	// Name is the image name. Optional; inferred from URI when empty.
	Name string
	// Format is the disk format (e.g. qcow2, raw). Optional; inferred from
	// the resolved name's extension when empty.
	Format string
	// Checksum is an optional algorithm-tagged digest ("sha256:...") the
	// content must match before upload.
	Checksum string
	// URI locates the image content: a remote URL or a local path.
	// Required when State is present.
	URI string

	State     State
	Wait      bool
	Timeout   time.Duration
	CheckMode bool
}

// Image reconciles a disk image against the desired state and returns the
// normalized result. Idempotency is identity-based: an existing image with
// the same ID or name short-circuits import without re-validating content.
func Image(ctx context.Context, client cloud.Client, spec ImageSpec) (*ImageResult, error) {
	if spec.Checksum != "" {
		if _, _, err := checksum.Split(spec.Checksum); err != nil {
			return nil, err
		}
	}
	if spec.State == StatePresent && spec.URI == "" {
		return nil, &MissingPrerequisiteError{Field: "uri", Reason: "when state is present"}
	}

	if spec.CheckMode {
		// True state is unknown without contacting the cloud; echo the
		// inputs unchanged.
		return &ImageResult{
			Changed:  false,
			ID:       spec.ID,
			Name:     spec.Name,
			Format:   spec.Format,
			Checksum: spec.Checksum,
			State:    spec.State.String(),
		}, nil
	}

	switch spec.State {
	case StateAbsent:
		return deleteImage(ctx, client, spec)
	default:
		return importImage(ctx, client, spec)
	}
}

// importImage ensures the image exists, downloading remote content into a
// scoped temporary directory first when necessary.
func importImage(ctx context.Context, client cloud.Client, spec ImageSpec) (*ImageResult, error) {
	src := source.Classify(spec.URI)
	if src.Remote() {
		return importRemote(ctx, client, spec, src)
	}
	return importLocal(ctx, client, spec, src)
}

// importRemote downloads the image content and uploads it to the image
// repository. The existence check happens after the response headers are
// available (they may carry the filename the image is named after) but
// before any content is written to disk.
func importRemote(ctx context.Context, client cloud.Client, spec ImageSpec, src source.Source) (*ImageResult, error) {
	body, headers, err := client.FetchRemote(ctx, spec.URI)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	hint := source.FilenameFromContentDisposition(headers.Get("Content-Disposition"))
	filename, err := src.ResolveName(hint, spec.Name)
	if err != nil {
		return nil, err
	}

	name := spec.Name
	if name == "" {
		name = filename
	}

	format, err := src.ResolveFormat(spec.Format, name)
	if err != nil {
		return nil, err
	}

	existing, err := lookupImage(ctx, client, spec.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Image exists already; the download is abandoned unread.
		return existingImageResult(existing, spec), nil
	}

	dir, err := os.MkdirTemp("", "osctl-image-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(filename))
	if err := writeStream(path, body); err != nil {
		return nil, err
	}

	return uploadImage(ctx, client, spec, name, format, path)
}

// importLocal uploads a local file to the image repository.
func importLocal(ctx context.Context, client cloud.Client, spec ImageSpec, src source.Source) (*ImageResult, error) {
	name := spec.Name
	if spec.ID == "" && name == "" {
		var err error
		name, err = src.ResolveName("", "")
		if err != nil {
			return nil, err
		}
	}

	existing, err := lookupImage(ctx, client, spec.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Image exists already.
		return existingImageResult(existing, spec), nil
	}

	if name == "" {
		// ID given but absent on the cloud side; name the upload after
		// the file.
		name, err = src.ResolveName("", "")
		if err != nil {
			return nil, err
		}
	}

	format, err := src.ResolveFormat(spec.Format, name)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(src.Path); err != nil {
		return nil, &NotFoundError{Kind: "image source", NameOrID: src.Path}
	}

	return uploadImage(ctx, client, spec, name, format, src.Path)
}

// uploadImage verifies the local content and performs the single mutating
// upload call. Verification failures abort cleanly before any cloud-side
// effect.
func uploadImage(ctx context.Context, client cloud.Client, spec ImageSpec, name, format, path string) (*ImageResult, error) {
	if err := checksum.Verify(path, spec.Checksum); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	sizeOnDisk := info.Size()

	image, err := client.CreateImage(ctx, cloud.CreateImageOpts{
		Name:       name,
		ID:         spec.ID,
		DiskFormat: format,
		Path:       path,
		Wait:       spec.Wait,
		Timeout:    spec.Timeout,
	})
	if err != nil {
		return nil, err
	}

	if image.SizeBytes != sizeOnDisk {
		// Upload-time transformations can legitimately change the size.
		log.Printf("[DEBUG] image size on disk is %d, but the uploaded size is %d", sizeOnDisk, image.SizeBytes)
	}

	return &ImageResult{
		Changed:   true,
		ID:        image.ID,
		Name:      image.Name,
		SizeBytes: image.SizeBytes,
		Format:    image.DiskFormat,
		Checksum:  spec.Checksum,
		State:     spec.State.String(),
	}, nil
}

// deleteImage ensures the image is gone. The identity key is the ID, the
// name, or the basename of a local locator; a remote URL alone cannot safely
// name the image to delete.
func deleteImage(ctx context.Context, client cloud.Client, spec ImageSpec) (*ImageResult, error) {
	name := spec.Name
	if spec.ID == "" && name == "" {
		src := source.Classify(spec.URI)
		if src.Remote() {
			return nil, &MissingPrerequisiteError{Field: "name", Reason: "for deleting images when uri is a url"}
		}

		var err error
		name, err = src.ResolveName("", "")
		if err != nil {
			return nil, err
		}
	}

	image, err := lookupImage(ctx, client, spec.ID, name)
	if err != nil {
		return nil, err
	}
	if image == nil {
		// Image absent already.
		return &ImageResult{
			Changed: false,
			ID:      spec.ID,
			Name:    name,
			State:   spec.State.String(),
		}, nil
	}

	if err := client.DeleteImage(ctx, image.ID, spec.Wait, spec.Timeout); err != nil {
		return nil, err
	}

	return &ImageResult{
		Changed:   true,
		ID:        image.ID,
		Name:      image.Name,
		SizeBytes: image.SizeBytes,
		Format:    image.DiskFormat,
		State:     spec.State.String(),
	}, nil
}

// lookupImage finds an image by its identity key: ID if given, else name.
func lookupImage(ctx context.Context, client cloud.ImageAPI, id, name string) (*cloud.Image, error) {
	key := id
	if key == "" {
		key = name
	}
	if key == "" {
		return nil, nil
	}

	image, err := client.GetImage(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", key, err)
	}
	return image, nil
}

// existingImageResult reports an identity match as an unchanged result
// carrying the existing image's attributes.
func existingImageResult(image *cloud.Image, spec ImageSpec) *ImageResult {
	return &ImageResult{
		Changed:   false,
		ID:        image.ID,
		Name:      image.Name,
		SizeBytes: image.SizeBytes,
		Format:    image.DiskFormat,
		Checksum:  spec.Checksum,
		State:     spec.State.String(),
	}
}

// writeStream copies the stream into a new file at path.
func writeStream(path string, r io.Reader) error {
	// #nosec G304
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
