// Command asrec is the terminal client for the AsRecorded dubbing
// backend: log in, browse series and chapters, and review takes.
package main
