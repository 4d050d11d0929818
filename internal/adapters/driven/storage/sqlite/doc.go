// Package sqlite provides the persistent vector collection backed by a
// SQLite database file.
//
// Embeddings are stored as little-endian float32 BLOBs alongside the
// chunk metadata needed to present a retrieval hit. Ranking is an
// in-process cosine similarity scan over all stored records, which is
// ample at the corpus sizes a single document produces.
//
// The collection survives process restarts: population happens once,
// after which the application only reads. Inserts ignore conflicts on
// chunk ID, so a repeated population cannot create duplicates.
package sqlite
