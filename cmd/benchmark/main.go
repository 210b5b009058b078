// Command benchmark drives the generate endpoint with vegeta against a
// server wired to a local mock provider upstream.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

// a completion whose content is a payload the character schema accepts
var mockCompletion = []byte(`{
	"id": "bench-1",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "` + "```" + `json\n{\"name\": \"Bench Subject\", \"description\": \"A tireless construct that answers every summons instantly.\", \"race\": \"construct\", \"class\": \"artificer\"}\n` + "```" + `"}}],
	"usage": {"prompt_tokens": 50, "completion_tokens": 40, "total_tokens": 90}
}`)

var benchConfig = fmt.Sprintf(`server:
  port: "%d"
  env: development
store:
  dsn: bench.db
usage:
  retention: 1000
rate_limit:
  requests_per_second: 10000
  burst: 20000
default_provider: mock
providers:
  - name: mock
    type: openai
    model: bench-model
    api_key: sk-bench
    base_url: http://localhost:%d/v1
    enabled: true
`, appPort, mockPort)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "duration of the attack")
	rps := flag.Int("rate", 50, "requests per second")
	flag.Parse()

	go startMockUpstream()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	configFile := "bench_config.yaml"
	if err := os.WriteFile(configFile, []byte(benchConfig), 0o644); err != nil {
		log.Fatalf("failed to write config: %v", err)
	}
	defer os.Remove(configFile)

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("CONFIG_FILE=%s", configFile),
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/health", appPort))

	fmt.Printf("Running benchmark: %s duration, %d req/s\n", *duration, *rps)

	body := []byte(`{"object_type": "character", "prompt": "a weathered caravan guard"}`)
	targeter := func(t *vegeta.Target) error {
		t.Method = "POST"
		t.URL = fmt.Sprintf("http://localhost:%d/api/v1/generate", appPort)
		t.Body = body
		t.Header = http.Header{"Content-Type": []string{"application/json"}}
		return nil
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rps, Per: time.Second}, *duration, "generate") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Errors (first 5 unique):")
		seen := make(map[string]bool)
		for _, msg := range metrics.Errors {
			if seen[msg] || len(seen) >= 5 {
				continue
			}
			fmt.Println(msg)
			seen[msg] = true
		}
	}

	os.Remove("bench.db")
}

func startMockUpstream() {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(mockCompletion)
	})

	if err := http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux); err != nil {
		log.Fatalf("mock upstream failed: %v", err)
	}
}

func waitForApp(url string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	log.Fatal("app did not become ready")
}
