// Package infra contains technical adapters: the SQLite store, the MQTT
// sensor ingestor, the zerolog logger and the metrics exporters. These
// packages depend only on the interfaces defined in the core packages.
package infra
