// Package storage provides JSON persistence for capture sessions.
//
// Each session is written to <data dir>/captures/capture_<id>.json. The
// default data directory is ~/.matchprep.
package storage
