// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library. Embeddings and chat completion may live on different hosts, for
// example OpenAI for embeddings and OpenRouter for chat, or both on a local
// Ollama server.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithEmbeddingToken(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithChatToken(os.Getenv("OPENROUTER_API_KEY")),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "intro to data structures")
//	answer, err := provider.Generator().Generate(ctx, []ai.Message{
//	    ai.SystemMessage("You are a helpful course assistant."),
//	    ai.UserMessage("What does 01:198:112 cover?"),
//	})
package openai
