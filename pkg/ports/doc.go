// Package ports defines the interfaces between the survey core and its
// external collaborators: the chat transport, the profile directory, the
// recipient list source, the result sink and the record store. The core
// depends only on these contracts; adapters implement them.
package ports
