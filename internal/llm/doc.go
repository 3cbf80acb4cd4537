// Package llm adapts hosted language models into a text classifier for expense
// notes. It supports the OpenAI and Anthropic HTTP APIs behind one Client
// interface, and wraps them in an Adapter that validates labels, caches
// answers and rate limits outgoing calls.
package llm
