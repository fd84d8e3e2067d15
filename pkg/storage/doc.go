// Package storage writes theme assets to the local output directory.
//
// The Manager maps each slash-delimited asset key to a file below the output
// directory, creates intermediate directories on demand and writes through a
// temporary file that is renamed into place. Base64 attachments are decoded
// before they reach the disk.
//
// Prepare refuses to reuse an existing directory:
//
//	store, err := storage.Prepare("foo.myshopify.com-42")
//	if err != nil {
//	    return err // setup error, the directory is left untouched
//	}
//
//	err = store.Save(&models.AssetContent{
//	    Key:     "templates/index.liquid",
//	    Payload: []byte("{{ content_for_layout }}"),
//	})
//
// Keys that are absolute or climb out of the directory with ".." are
// rejected with an IO error.
package storage
