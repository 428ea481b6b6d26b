// Package featurefile reads and writes feature-definition documents.
//
// A feature document holds one or more feature blocks in the Gradle DSL
// accepted by the build plugin:
//
//	package buildFeatures
//	feature('springBootStarterWeb', 'Spring Boot Starter Web') {
//	    implementation('org.springframework.boot:spring-boot-starter-web:%SPRING_BOOT_STARTER_WEB_VERSION', 'springBootStarterWebVersion') {
//	        exclude 'org.springframework.boot:spring-boot-starter-tomcat'
//	        conditionalOnFeatureNotEnabled 'undertow'
//	    }
//	}
//
// [Parse] is line-oriented: every statement sits on its own line. [Render]
// writes the canonical form shown above, and Parse(Render(d)) yields d.
// [LoadDir] reads a directory of documents and [Apply] defines their
// features on a registry.
package featurefile
