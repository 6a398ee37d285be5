// Package file provides file-based implementations of driven port interfaces.
// These adapters read and persist data on the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - SettingsStore: typed domain.Settings over any ConfigStore
//   - LoadLexicon: the JSON region lexicon
//   - LoadEnv: .env files for provider credentials
package file
