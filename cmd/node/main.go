// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package main

import (
	"database/sql"
	"os"

	"github.com/kreda-project/kreda/chain"
	"github.com/kreda-project/kreda/consensus"
	"github.com/kreda-project/kreda/storage"
	"github.com/sirupsen/logrus"
)

func init() {
	// Output to stdout instead of the default stderr
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.DebugLevel)
}

func main() {
	logrus.Info("starting")

	dsn := os.Getenv("KREDA_DSN")
	if dsn == "" {
		dsn = "kreda@tcp(127.0.0.1:3306)/kreda"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logrus.Fatal(err)
	}

	store := storage.NewSqlStorage(db)
	if err := store.Init(); err != nil {
		logrus.Fatal(err)
	}

	index := chain.NewIndex()
	if err := chain.Load(index, store); err != nil {
		logrus.Fatal(err)
	}
	if index.Height() < 0 {
		logrus.Info("empty chain, nothing to audit")
		return
	}

	logrus.Infof("chain loaded at height %d", index.Height())
	if err := index.CheckTransitions(&consensus.MainNetParams); err != nil {
		logrus.Fatal(err)
	}
	logrus.Info("all difficulty transitions within consensus bounds")
}
