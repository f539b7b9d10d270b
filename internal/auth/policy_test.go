package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Role policy", func() {
	ginkgo.DescribeTable("IsAdmin",
		func(id Identity, expected bool) {
			gomega.Expect(IsAdmin(id)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("owner", Identity{Username: "olga", Role: RoleOwner}, true),
		ginkgo.Entry("operator", Identity{Username: "alice", Role: RoleOperator}, false),
		ginkgo.Entry("teknisi", Identity{Username: "bob", Role: RoleTeknisi}, false),
		ginkgo.Entry("anonymous", Anonymous, false),
		ginkgo.Entry("unknown role string", Identity{Username: "mallory", Role: Role("Admin")}, false),
		ginkgo.Entry("owner without username", Identity{Role: RoleOwner}, false),
	)

	ginkgo.DescribeTable("IsOwnerOrOperator",
		func(id Identity, expected bool) {
			gomega.Expect(IsOwnerOrOperator(id)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("owner", Identity{Username: "anyone", Role: RoleOwner}, true),
		ginkgo.Entry("operator", Identity{Username: "someone-else", Role: RoleOperator}, true),
		ginkgo.Entry("teknisi", Identity{Username: "bob", Role: RoleTeknisi}, false),
		ginkgo.Entry("anonymous", Anonymous, false),
		ginkgo.Entry("lower-case owner is not a role", Identity{Username: "x", Role: Role("owner")}, false),
	)

	ginkgo.It("treats only identities with a username and a known role as authenticated", func() {
		gomega.Expect(IsAuthenticated(Anonymous)).To(gomega.BeFalse())
		gomega.Expect(IsAuthenticated(Identity{Username: "bob"})).To(gomega.BeFalse())
		gomega.Expect(IsAuthenticated(Identity{Username: "bob", Role: RoleTeknisi})).To(gomega.BeTrue())
	})
})

var _ = ginkgo.Describe("Ownership policy", func() {
	ginkgo.DescribeTable("CanAccess",
		func(id Identity, owner string, expected bool) {
			gomega.Expect(CanAccess(id, owner)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("creator teknisi", Identity{Username: "bob", Role: RoleTeknisi}, "bob", true),
		ginkgo.Entry("other teknisi", Identity{Username: "carol", Role: RoleTeknisi}, "bob", false),
		ginkgo.Entry("operator on foreign record", Identity{Username: "alice", Role: RoleOperator}, "bob", true),
		ginkgo.Entry("owner on foreign record", Identity{Username: "olga", Role: RoleOwner}, "bob", true),
		ginkgo.Entry("anonymous on ownerless record", Anonymous, "", false),
		ginkgo.Entry("case differs", Identity{Username: "Bob", Role: RoleTeknisi}, "bob", false),
	)

	ginkgo.DescribeTable("RequireSelf",
		func(id Identity, claimed string, expected bool) {
			gomega.Expect(RequireSelf(id, claimed)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("self", Identity{Username: "bob", Role: RoleTeknisi}, "bob", true),
		ginkgo.Entry("owner claiming another user", Identity{Username: "olga", Role: RoleOwner}, "bob", false),
		ginkgo.Entry("operator claiming another user", Identity{Username: "alice", Role: RoleOperator}, "bob", false),
		ginkgo.Entry("empty claim", Identity{Username: "bob", Role: RoleTeknisi}, "", false),
		ginkgo.Entry("anonymous with empty claim", Anonymous, "", false),
	)
})

var _ = ginkgo.Describe("ParseRole", func() {
	ginkgo.It("accepts the three roles in any case", func() {
		for in, want := range map[string]Role{"Owner": RoleOwner, "operator": RoleOperator, " TEKNISI ": RoleTeknisi} {
			got, err := ParseRole(in)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.Equal(want))
		}
	})

	ginkgo.It("rejects anything else", func() {
		_, err := ParseRole("Admin")
		gomega.Expect(err).To(gomega.MatchError(ErrUnknownRole))
	})

	ginkgo.It("maps roles to login redirects", func() {
		gomega.Expect(RedirectFor(RoleOwner)).To(gomega.Equal("/dashboard.html"))
		gomega.Expect(RedirectFor(RoleOperator)).To(gomega.Equal("/dashboard.html"))
		gomega.Expect(RedirectFor(RoleTeknisi)).To(gomega.Equal("/activity.html"))
	})
})
