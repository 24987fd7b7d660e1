// Command ledgerctl runs schema migrations and month closes from the shell
// or a scheduler, against the same database as the API.
package main

func main() {
	Execute()
}
