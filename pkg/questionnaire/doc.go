// Package questionnaire defines the core data model shared by every engine
// component: question and flow definitions, answer maps, user profiles,
// session metadata and segment derivation. Types carry JSON and YAML tags so
// flow documents round-trip through both encodings.
package questionnaire
