package main

import "os"

// @title Yatube API
// @version 1.0
// @description 博客平台：帖子、分组、评论与关注
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
