package main

import "github.com/samarthyatrust/samarthya_backend/cmd"

func main() {
	cmd.Execute()
}
