package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-xhs-note-automation/internal/oracle"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		log.Println("OPENROUTER_API_KEY environment variable not set. Please set it to test the oracle.")
		return
	}

	client := oracle.NewOpenRouterClient(apiKey, "")

	candidates := []string{"国企求职攻略", "美食推荐", "考公上岸经验", "三亚旅游路线"}
	target := "国企央企求职辅导小程序"

	fmt.Printf("Classifying %d titles against target %q...\n", len(candidates), target)

	raw, err := client.Classify(context.Background(), candidates, target)
	if err != nil {
		log.Fatalf("Classify failed: %v", err)
	}

	fmt.Println("\nRaw oracle response:")
	fmt.Println(raw)
}
