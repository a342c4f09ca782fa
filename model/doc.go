// Package model defines the synchronous chat-completion contract the agents
// are written against: plain request/response generation, tool/function
// calling, structured output against a declared JSON schema, and text
// embeddings. Provider adapters live in the openai and anthropic subpackages;
// MockModel provides scripted responses for tests.
package model
