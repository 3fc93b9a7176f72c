package main

import (
	"github.com/lehigh-university-libraries/dspace-crosswalk/cmd"

	// Register crosswalks
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/aiptechmd"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/ccrdf"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/cerif"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/dim"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/license"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/mets"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/metsrights"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/mods"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/oaidc"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/ore"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/premis"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/qdc"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/xhtmlhead"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/xoai"

	// Register patch operations
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/bitstream"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/bundle"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/eperson"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/item"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/layout"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/metadata"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/orcid"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/resourcepolicy"
	_ "github.com/lehigh-university-libraries/dspace-crosswalk/patch/subscription"
)

func main() {
	cmd.Execute()
}
