package main

import "github.com/okian/talentflow/pkg/logger"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}
