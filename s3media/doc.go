// Package s3media implements authcore.MediaStore on S3-compatible object
// storage through the AWS SDK. It uploads local files received from
// multipart requests and returns their public URLs. Works against MinIO by
// setting BaseEndpoint and UsePathStyle.
package s3media
