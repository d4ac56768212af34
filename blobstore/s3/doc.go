// Package s3 provides Amazon S3 implementations of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/products"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	db, err := lexgo.Open(ctx, store)
//
// For several writers sharing one prefix, wrap the store in a DDBCommitStore
// so that CURRENT is advanced with a DynamoDB conditional write.
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large segments
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
