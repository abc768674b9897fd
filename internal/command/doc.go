// Package command implements the fleet's command queue: operators
// enqueue work for a device, the device collects it on poll, and
// reports completion afterwards.
//
// Delivery is pull-based and exactly-once per command. The claim step
// is a single UPDATE ... RETURNING statement, so two concurrent polls
// for the same device can never both receive the same command.
package command
