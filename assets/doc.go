// Package assets discovers the spine animation files of a single mod folder.
//
// The package covers three concerns:
//   - Encoding: turning one file into a self-describing TransportBlob (mime type + base64)
//   - Classification: deriving a ModCategory and identifier from the folder's .modfile marker
//   - Scanning: collecting skeleton, atlas and image files into an AssetBundle
//
// Nothing in this package touches the network. Fetching a missing skeleton is handled by
// the downloader package, which reuses DetectFolderType and ModCategory.Prefix.
package assets
