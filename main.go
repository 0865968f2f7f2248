// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// fileupload validates files against an extension allow-list and uploads
// them as one multipart request with progress reporting
package main

import "fileupload/cmd"

func main() {
	cmd.Execute()
}
