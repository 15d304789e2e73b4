// Command skillcheck validates a skills directory without starting the daemon,
// and prints bcrypt hashes for console operator accounts.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/minekent/skillsengine/internal/config"
	"github.com/minekent/skillsengine/internal/console"
	"github.com/minekent/skillsengine/internal/content"
	"github.com/minekent/skillsengine/internal/registry"
	"github.com/minekent/skillsengine/internal/vocab"
)

func main() {
	configPath := flag.String("config", "data/config.yaml", "Path to daemon config YAML file")
	dir := flag.String("dir", "", "Skills directory to check (default: skills_dir from the config)")
	vocabFile := flag.String("vocab", "", "Vocabulary file (default: vocabulary from the config)")
	hash := flag.Bool("hash", false, "Read a password from stdin and print its bcrypt hash")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s, using defaults: %v\n", *configPath, err)
	}
	cfg.ApplyEnv()

	if *hash {
		os.Exit(hashPassword(&cfg.Console.Password))
	}

	if *dir == "" {
		*dir = cfg.SkillsDir
	}
	if *vocabFile == "" {
		*vocabFile = cfg.Vocabulary
	}
	os.Exit(check(*dir, *vocabFile))
}

// check loads dir the way the daemon does and prints the report.
// It returns 1 when any file was skipped.
func check(dir, vocabFile string) int {
	v, err := vocab.LoadFromYAML(vocabFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	catalog := registry.NewCatalog()
	report := content.NewLoader(catalog, v).Reload(dir)

	fmt.Printf("Checked %s: loaded %d skill(s), skipped %d in %v\n", dir, report.Loaded, report.Skipped, report.Took)
	for _, w := range report.Warnings {
		fmt.Println("  warning:", w)
	}
	for _, e := range report.Errors {
		fmt.Println("  error:", e)
	}

	snap := catalog.Current()
	for _, id := range snap.Registry.IDs() {
		s, _ := snap.Registry.Get(id)
		fmt.Printf("  ok: %s (%s) trigger %s\n", s.ID, s.Name, s.Trigger.Kind)
	}

	if report.Skipped > 0 {
		return 1
	}
	return 0
}

func hashPassword(rules *config.PasswordConfig) int {
	fmt.Fprintf(os.Stderr, "Password (%s): ", rules.GetRequirementsText())
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "Error: no password given\n")
		return 2
	}
	password := strings.TrimRight(line, "\r\n")

	if problem := rules.ValidatePassword(password); problem != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", problem)
		return 1
	}

	hash, err := console.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	fmt.Println(hash)
	return 0
}
