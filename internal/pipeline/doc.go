// Package pipeline runs the clean command end to end.
//
// A run reads one raw match table, rejects rows that are not genuine match
// records, builds the player registry, rewrites the match rows to player
// ids and writes players.csv and matches.csv. Every failure is fatal and
// carries one of ErrInputStructure, ErrDataQuality, ErrIdentity or
// ErrOutput; outputs are committed only after all stages succeed.
package pipeline
