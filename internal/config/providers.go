package config

// Kind selects which backend style a provider speaks.
type Kind string

const (
	// KindChat is an OpenAI-compatible chat completions endpoint.
	KindChat Kind = "chat"
	// KindGenerate is a single-prompt generation endpoint.
	KindGenerate Kind = "generate"
)

type ProviderInfo struct {
	ID           string
	Name         string
	Description  string
	Kind         Kind
	NeedsAPIKey  bool
	APIKeyEnv    string
	BaseURL      string
	SignupURL    string
	Models       []string
	DefaultModel string
}

var Providers = []ProviderInfo{
	{
		ID:           "deepseek",
		Name:         "DeepSeek",
		Description:  "Cheap, good formal English",
		Kind:         KindChat,
		NeedsAPIKey:  true,
		APIKeyEnv:    "DEEPSEEK_API_KEY",
		BaseURL:      "https://api.deepseek.com",
		SignupURL:    "https://platform.deepseek.com/api_keys",
		Models:       []string{"deepseek-chat", "deepseek-reasoner"},
		DefaultModel: "deepseek-chat",
	},
	{
		ID:           "openai",
		Name:         "OpenAI",
		Description:  "GPT-4o, most capable",
		Kind:         KindChat,
		NeedsAPIKey:  true,
		APIKeyEnv:    "OPENAI_API_KEY",
		BaseURL:      "https://api.openai.com/v1",
		SignupURL:    "https://platform.openai.com/api-keys",
		Models:       []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo"},
		DefaultModel: "gpt-4o-mini",
	},
	{
		ID:           "groq",
		Name:         "Groq",
		Description:  "Very fast, cheap",
		Kind:         KindChat,
		NeedsAPIKey:  true,
		APIKeyEnv:    "GROQ_API_KEY",
		BaseURL:      "https://api.groq.com/openai/v1",
		SignupURL:    "https://console.groq.com/keys",
		Models:       []string{"llama-3.1-70b-versatile", "llama-3.1-8b-instant"},
		DefaultModel: "llama-3.1-70b-versatile",
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		Description:  "Access all models",
		Kind:         KindChat,
		NeedsAPIKey:  true,
		APIKeyEnv:    "OPENROUTER_API_KEY",
		BaseURL:      "https://openrouter.ai/api/v1",
		SignupURL:    "https://openrouter.ai/keys",
		Models:       []string{"anthropic/claude-3.5-sonnet", "openai/gpt-4o", "meta-llama/llama-3.1-70b-instruct"},
		DefaultModel: "meta-llama/llama-3.1-70b-instruct",
	},
	{
		ID:           "ollama",
		Name:         "Ollama",
		Description:  "Local, free, private",
		Kind:         KindGenerate,
		NeedsAPIKey:  false,
		BaseURL:      "http://localhost:11434",
		Models:       []string{"llama3.1:8b", "qwen2.5:7b", "mistral:7b"},
		DefaultModel: "llama3.1:8b",
	},
	{
		ID:          "custom",
		Name:        "Custom",
		Description: "Any OpenAI-compatible endpoint",
		Kind:        KindChat,
		NeedsAPIKey: false,
		APIKeyEnv:   "LLM_API_KEY",
	},
}

func GetProvider(id string) *ProviderInfo {
	for _, p := range Providers {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
