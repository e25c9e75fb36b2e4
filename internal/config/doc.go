// Package config loads and merges suggestmsg configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (SUGGESTMSG_BASE_URL, SUGGESTMSG_MODEL, SUGGESTMSG_N, etc.)
//  3. Config file ($XDG_CONFIG_HOME/suggestmsg/config.json)
//  4. Built-in defaults
//
// The defaults reproduce the completion request the tool has always sent:
// 32 tokens, ten choices, a newline stop sequence and temperature 0.5.
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
