package provider_test

import (
	"context"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joho/godotenv"

	"github.com/devmate-ai/devmate/internal/provider"
)

func TestProviderSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Provider Suite")
}

var _ = BeforeSuite(func() {
	_ = godotenv.Load("../../.env")
})

var _ = Describe("AnthropicProvider", func() {
	var (
		ctx context.Context
		p   *provider.AnthropicProvider
	)

	BeforeEach(func() {
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			Skip("ANTHROPIC_API_KEY not set")
		}

		ctx = context.Background()
		var err error
		p, err = provider.NewAnthropicProvider(ctx, &provider.AnthropicConfig{
			APIKey:    apiKey,
			MaxTokens: 1024,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Provider Properties", func() {
		It("should return correct ID", func() {
			Expect(p.ID()).To(Equal("anthropic"))
		})

		It("should return at least one model", func() {
			Expect(len(p.Models())).To(BeNumerically(">", 0))
		})

		It("should have correct provider ID in models", func() {
			for _, m := range p.Models() {
				Expect(m.ProviderID).To(Equal("anthropic"))
			}
		})

		It("should return a chat model", func() {
			Expect(p.ChatModel()).NotTo(BeNil())
		})

		It("should build chat models for specific model IDs", func() {
			chatModel, err := p.ChatModelFor(ctx, "claude-3-5-haiku-20241022")
			Expect(err).NotTo(HaveOccurred())
			Expect(chatModel).NotTo(BeNil())
		})
	})
})

var _ = Describe("OpenAIProvider", func() {
	BeforeEach(func() {
		if os.Getenv("OPENAI_API_KEY") == "" {
			Skip("OPENAI_API_KEY not set")
		}
	})

	It("should construct with defaults", func() {
		p, err := provider.NewOpenAIProvider(context.Background(), &provider.OpenAIConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ID()).To(Equal("openai"))
		Expect(p.ChatModel()).NotTo(BeNil())
	})
})
