package main

import "github.com/dualpascal/blog-api/cmd"

func main() {
	cmd.Execute()
}
