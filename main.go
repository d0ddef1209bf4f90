package main

import (
	"fmt"
	"os"

	"os/exec"
)

// Quick local inspection of an exported leaderboard snapshot without a
// running ClickHouse server.

const csvFile = "leaderboard.csv"

func main() {
	cmd := exec.Command("./clickhouse", "local",
		"--structure", "rank UInt32, contestant_id Int64, name String, votes UInt64",
		"--input-format", "CSVWithNames",
		"--file", csvFile,
		"--query", "SELECT * FROM file('"+csvFile+"') ORDER BY votes DESC")

	output, err := cmd.CombinedOutput()
	if err != nil {
		fmt.Printf("Error running clickhouse-local: %v\n", err)
		fmt.Printf("Output: %s\n", string(output))
		os.Exit(1)
	}

	fmt.Printf("Clickhouse-local output: %s\n", string(output))
}
