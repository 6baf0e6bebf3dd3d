// Command impactctl performs operator tasks against the impact-hub store:
// migrations, role promotion, translation cache resets and offline index
// builds.
//
// Usage:
//
//	impactctl migrate up
//	impactctl promote --email=user@example.com --role=ADMIN
//	impactctl translations clear --collection=solutions
//	impactctl index check --collection=partners
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
