package shareauth

// mountCommand maps the share root with "net use". Credentials are passed as
// arguments, matching what an operator would type.
func mountCommand(root string, creds Credentials) (string, []string, string) {
	return "net", []string{"use", root, "/user:" + creds.User, creds.Password}, ""
}
