// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"credit-risk-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., risk.company.predict)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Predict Company Risk)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "risk", "Category")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., predict-company-risk)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")

	// Update command flags
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		_ = addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		err := withRegistry(*addPath, true, func(reg *registry.ActivityRegistry) error {
			return reg.Add(registry.Activity{
				ID:                   *idAdd,
				DisplayName:          *displayName,
				Description:          *description,
				Category:             *category,
				Version:              *version,
				TaskType:             *taskType,
				ImplementationStatus: *implStatus,
				InputSchema:          map[string]interface{}{},
				OutputSchema:         map[string]interface{}{},
				ErrorCodes:           []string{},
				Timeout:              "10s",
				Workflows:            []string{},
				Tags:                 []string{},
			})
		})
		exitOnError("adding activity", err)
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := withRegistry(*updatePath, false, func(reg *registry.ActivityRegistry) error {
			return reg.Update(*idUpdate, *field, *value)
		})
		exitOnError("updating activity", err)
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		exitOnError("loading registry", err)
		exitOnError("validating registry", reg.Validate())
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "help":
		help()
	default:
		help()
		os.Exit(1)
	}
}

// withRegistry loads, mutates and saves the registry file.
func withRegistry(path string, create bool, fn func(*registry.ActivityRegistry) error) error {
	load := registry.LoadRegistry
	if create {
		load = registry.LoadOrCreate
	}
	reg, err := load(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := fn(reg); err != nil {
		return err
	}
	return reg.Save(path)
}

func exitOnError(action string, err error) {
	if err == nil {
		return
	}
	fmt.Printf("Error %s: %v\n", action, err)
	os.Exit(1)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file and compile every schema
  help     Show this help message

Examples:
  registry-updater add -id risk.company.rescore -displayName "Rescore Company" -description "Re-runs company scoring" -taskType rescore-company
  registry-updater update -id risk.company.predict -field status -value verified
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
