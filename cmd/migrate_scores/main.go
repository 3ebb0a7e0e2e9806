package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/trytobebee/snake_classic/pkg/config"
	"github.com/trytobebee/snake_classic/pkg/highscore"
)

// merge combines a legacy record into the current one: the best high score
// wins and game counts add up
func merge(current, legacy highscore.Record) highscore.Record {
	out := current
	if legacy.HighScore > out.HighScore {
		out.HighScore = legacy.HighScore
	}
	if current.TotalGames == 0 {
		out.LastGameScore = legacy.LastGameScore
	}
	out.TotalGames += legacy.TotalGames
	return out
}

// sourceKey identifies a legacy file by its contents, so the same file is
// never counted twice even if it was moved
func sourceKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// migrate imports the legacy file at src into the database at dst. It
// reports false when that file was already imported.
func migrate(src, dst string) (highscore.Record, bool, error) {
	// 1. Read the legacy file
	data, err := os.ReadFile(src)
	if err != nil {
		return highscore.Record{}, false, fmt.Errorf("failed to read legacy scores: %w", err)
	}
	legacy, err := highscore.NewJSONFileStore(src).Load()
	if err != nil {
		return highscore.Record{}, false, err
	}

	// 2. Open SQLite DB
	db, err := highscore.OpenSQLite(dst)
	if err != nil {
		return highscore.Record{}, false, fmt.Errorf("failed to open DB: %w", err)
	}
	defer db.Close()

	// 3. Merge, once per file
	return db.Import(sourceKey(data), func(current highscore.Record) highscore.Record {
		return merge(current, legacy)
	})
}

func main() {
	src := flag.String("from", config.HighScoreFile, "legacy high score JSON file")
	dst := flag.String("db", config.SQLitePath, "sqlite database to import into")
	flag.Parse()

	if _, err := os.Stat(*src); os.IsNotExist(err) {
		log.Fatalf("%s not found. Point -from at your old high score file.", *src)
	}

	merged, imported, err := migrate(*src, *dst)
	if err != nil {
		log.Fatal("Migration failed: ", err)
	}
	if !imported {
		fmt.Printf("⏭️  %s was already imported; high score %d, %d games in %s\n",
			*src, merged.HighScore, merged.TotalGames, *dst)
		return
	}
	fmt.Printf("✅ Migration complete! high score %d, %d games recorded in %s\n",
		merged.HighScore, merged.TotalGames, *dst)
}
