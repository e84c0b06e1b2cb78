/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command actiasctl canonicalizes a project directory into a bundle,
// publishes it to the script service, and clones a revision back to disk
// (spec.md §4.5). It is dev-tooling, not a product surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/actiasdev/actias/pkg/bundle"
	"github.com/actiasdev/actias/pkg/scriptservice"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "publish":
		err = runPublish(os.Args[2:])
	case "clone":
		err = runClone(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: actiasctl <init|publish|clone> [flags]")
}

// runInit writes a bare manifest into dir (creating dir if needed and
// replacing any manifest already there) and a stub entry point if none exists,
// dev-only tooling per SPEC_FULL.md's Open Question #1 resolution — it is
// never exercised by the worker or either service.
func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dir := fs.String("dir", ".", "project directory to scaffold")
	entry := fs.String("entry", "main.lua", "entry point file name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}

	manifest := &bundle.Manifest{EntryPoint: *entry, Includes: []string{"**/*.lua"}}
	if err := bundle.WriteManifest(*dir, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	entryPath := filepath.Join(*dir, *entry)
	if _, err := os.Stat(entryPath); os.IsNotExist(err) {
		stub := []byte("add_event_listener(\"fetch\", function(request)\n  return { body = \"hello from actias\" }\nend)\n")
		if err := os.WriteFile(entryPath, stub, 0o644); err != nil {
			return fmt.Errorf("write entry point: %w", err)
		}
	}

	fmt.Printf("initialized project at %s\n", *dir)
	return nil
}

// runPublish canonicalizes dir into a bundle, reuses the script named by
// the manifest's id (or creates one from -project/-identifier), creates a
// revision, and points the script at it — spec.md §4.5's "publish" flow end-to-end.
func runPublish(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	dir := fs.String("dir", ".", "project directory")
	addr := fs.String("addr", "localhost:9000", "script service gRPC address")
	projectID := fs.String("project", "", "project id (required for a new script)")
	identifier := fs.String("identifier", "", "public identifier (required for a new script)")
	timeout := fs.Duration("timeout", 30*time.Second, "RPC timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, manifest, err := bundle.Build(*dir)
	if err != nil {
		return fmt.Errorf("build bundle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, conn, err := scriptservice.DialClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial script service: %w", err)
	}
	defer conn.Close()

	scriptID, err := resolveScriptID(ctx, client, manifest, *projectID, *identifier)
	if err != nil {
		return err
	}

	manifest.ID = &scriptID
	configJSON, err := manifest.Marshal()
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	rev, err := client.CreateRevision(ctx, &proto.CreateRevisionRequest{
		ScriptID:         scriptID,
		ScriptConfigJSON: configJSON,
		Bundle:           bundleToWire(b),
	})
	if err != nil {
		return fmt.Errorf("create revision: %w", err)
	}

	if _, err := client.SetScriptRevision(ctx, &proto.SetScriptRevisionRequest{
		ScriptID:   scriptID,
		RevisionID: rev.ID,
	}); err != nil {
		return fmt.Errorf("set script revision: %w", err)
	}

	if err := bundle.WriteManifest(*dir, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Printf("published revision %s for script %s\n", rev.ID, scriptID)
	return nil
}

// resolveScriptID returns manifest.ID if it already names a script,
// otherwise creates one from projectID/identifier.
func resolveScriptID(ctx context.Context, client proto.ScriptServiceClient, manifest *bundle.Manifest, projectID, identifier string) (string, error) {
	if manifest.ID != nil {
		return *manifest.ID, nil
	}
	if projectID == "" || identifier == "" {
		return "", fmt.Errorf("project and identifier are required to publish a new script")
	}
	sc, err := client.CreateScript(ctx, &proto.CreateScriptRequest{ProjectID: projectID, PublicIdentifier: identifier})
	if err != nil {
		return "", fmt.Errorf("create script: %w", err)
	}
	return sc.ID, nil
}

// runClone fetches a revision (by id, or a script's current revision by
// identifier) and writes it back out to dir via bundle.Clone.
func runClone(args []string) error {
	fs := flag.NewFlagSet("clone", flag.ExitOnError)
	dir := fs.String("dir", ".", "target directory")
	addr := fs.String("addr", "localhost:9000", "script service gRPC address")
	identifier := fs.String("identifier", "", "public identifier to clone")
	revisionID := fs.String("revision", "", "revision id to clone (overrides -identifier)")
	timeout := fs.Duration("timeout", 30*time.Second, "RPC timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, conn, err := scriptservice.DialClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial script service: %w", err)
	}
	defer conn.Close()

	var scriptID string
	revID := *revisionID
	if revID == "" {
		if *identifier == "" {
			return fmt.Errorf("one of -revision or -identifier is required")
		}
		sc, err := client.QueryScript(ctx, &proto.QueryScriptRequest{PublicIdentifier: identifier})
		if err != nil {
			return fmt.Errorf("query script: %w", err)
		}
		if sc.CurrentRevisionID == nil {
			return fmt.Errorf("script did not have a revision")
		}
		scriptID = sc.ID
		revID = *sc.CurrentRevisionID
	}

	rev, err := client.GetRevision(ctx, &proto.GetRevisionRequest{ID: revID, WithBundle: true})
	if err != nil {
		return fmt.Errorf("get revision: %w", err)
	}
	if scriptID == "" {
		scriptID = rev.ScriptID
	}

	manifest := &bundle.Manifest{ID: &scriptID, EntryPoint: rev.EntryPoint, Includes: []string{"**/*"}}
	if rev.ScriptConfig != "" {
		if parsed, err := bundle.ParseManifestJSON(rev.ScriptConfig); err == nil {
			manifest = parsed
		}
	}

	files := make([]bundle.File, 0, len(rev.Bundle.Files))
	for _, f := range rev.Bundle.Files {
		files = append(files, bundle.File{FileName: f.FileName, FilePath: f.FilePath, Content: f.Content})
	}

	if err := bundle.Clone(*dir, manifest, files); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	fmt.Printf("cloned revision %s into %s\n", rev.ID, *dir)
	return nil
}

func bundleToWire(b *bundle.Bundle) *proto.Bundle {
	files := make([]*proto.File, 0, len(b.Files))
	for _, f := range b.Files {
		files = append(files, &proto.File{FileName: f.FileName, FilePath: f.FilePath, Content: f.Content})
	}
	return &proto.Bundle{EntryPoint: b.EntryPoint, Files: files}
}
