// Package deploy holds the domain model of the deployment pipeline:
// package versions and the install decision, the share target and its
// credential, the configuration set applied after install, step outcomes
// forming the audit trail, and the error taxonomy shared by all steps.
//
// The package also defines the ports (narrow interfaces) implemented by
// the effectful components so the pipeline can be exercised with fakes.
package deploy
