// Package ai defines the interfaces to the external embedding and
// summarization provider.
//
// The provider is the only network dependency of the embedding
// pipeline. Both services may fail transiently; retry policy lives in
// the workflow package, not here. The openai subpackage implements the
// interfaces against any OpenAI-compatible API; the mock subpackage
// provides deterministic test doubles.
package ai
