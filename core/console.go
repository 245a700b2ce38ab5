package core

// Global console used by firmware code.
var console = NewRegistry(nil)

// Console returns the process-wide registry
func Console() *Registry {
	return console
}

// Init installs tx and rx as the process-wide serial device.
// Meant to be called once during boot.
func Init(tx TransmitChannel, rx ReceiveChannel) {
	console.Init(tx, rx)
}

// Install installs an already built device as the process-wide device
func Install(dev Serial) {
	console.Install(dev)
}

// GetChar polls the process-wide device for one byte
func GetChar() (byte, bool) {
	return console.GetChar()
}

// PutChar blocks until b is sent on the process-wide device
func PutChar(b byte) {
	console.PutChar(b)
}

// Print writes formatted text to the process-wide device
func Print(format string, args ...interface{}) {
	console.Print(format, args...)
}

// Println writes formatted text and a line ending to the process-wide device
func Println(format string, args ...interface{}) {
	console.Println(format, args...)
}
