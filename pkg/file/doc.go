// Package file provides read-only access to static assets such as the
// inline email logo.
//
// A Source reads a whole object by name. Two backends are available:
//   - LocalSource reads from a directory on disk, confined to that directory
//   - S3Source reads objects from an S3 bucket (or an S3-compatible service)
//
// Example:
//
//	src, err := file.NewLocalSource("assets")
//	if err != nil {
//	    return err
//	}
//	logo, err := src.ReadFile(ctx, "novakinetix-logo.png")
//
// With S3:
//
//	src, err := file.NewS3Source(ctx, file.S3Config{
//	    Bucket: "brand-assets",
//	    Region: "us-east-1",
//	})
//
// Errors are classified into sentinel values (ErrFileNotFound,
// ErrAccessDenied, ErrOperationTimeout, ...) so callers can use errors.Is
// regardless of backend.
package file
