// Package downloader fetches a mod folder's missing skeleton from the remote
// asset repository and reports progress while doing so.
//
// The package defines:
//   - Resolver: maps an assets.ModCategory and identifier to a DownloadTarget
//   - Engine: streams one URL to disk in ChunkSize reads, emitting lifecycle events
//   - SkeletonFetcher: classifies a folder, skips when the file exists, downloads otherwise
//   - DownloadError: the structured error taxonomy returned by all of the above
//   - Emitters: JSON lines, zap logging, terminal progress bar and a throttling tracker
//
// Events are delivered synchronously to the Emitter passed by the caller; an emitter
// error aborts the download.
package downloader
